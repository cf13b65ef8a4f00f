package driver

import (
	"slices"
	"sync"
)

// Generic alias names shared by every chip description.
const (
	AliasContext        = "Context"
	AliasGain           = "Gain"
	AliasExposure       = "Exposure"
	AliasAGCSensitivity = "AGCSensitivity"
	AliasADCReference   = "ADCReference"
	AliasAutoGain       = "AutoGain"
	AliasAutoExposure   = "AutoExposure"
	AliasCompanding     = "Companding"
)

var generic = []string{
	AliasContext, AliasGain, AliasExposure, AliasAGCSensitivity,
	AliasADCReference, AliasAutoGain, AliasAutoExposure, AliasCompanding,
}

// AliasCollection maps generic names to features per register context.
// It is safe for concurrent use.
type AliasCollection struct {
	features map[string]*Feature
	contexts int

	mu      sync.RWMutex
	context int
	aliases []map[string]string
}

// NewAliasCollection creates an empty collection over features with the
// given number of contexts (at least 1).
func NewAliasCollection(features map[string]*Feature, contexts int) *AliasCollection {
	if contexts < 1 {
		contexts = 1
	}
	aliases := make([]map[string]string, contexts)
	for i := range aliases {
		aliases[i] = make(map[string]string)
	}
	return &AliasCollection{
		features: features,
		contexts: contexts,
		aliases:  aliases,
	}
}

// Add maps alias to feature within one context. Out of range contexts are ignored.
func (a *AliasCollection) Add(context int, alias, feature string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if context >= 0 && context < a.contexts {
		a.aliases[context][alias] = feature
	}
}

// AddAll maps alias to feature in every context.
func (a *AliasCollection) AddAll(alias, feature string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range a.aliases {
		m[alias] = feature
	}
}

// Get resolves name in the active context. It returns nil if unmapped.
func (a *AliasCollection) Get(name string) *Feature {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lookup(a.context, name)
}

// GetIn resolves name in a specific context.
func (a *AliasCollection) GetIn(context int, name string) *Feature {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if context < 0 || context >= a.contexts {
		return nil
	}
	return a.lookup(context, name)
}

func (a *AliasCollection) lookup(context int, name string) *Feature {
	feature, ok := a.aliases[context][name]
	if !ok {
		return nil
	}
	return a.features[feature]
}

// Context returns the active context.
func (a *AliasCollection) Context() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.context
}

// Contexts returns the number of contexts.
func (a *AliasCollection) Contexts() int {
	return a.contexts
}

// Names returns the sorted alias names of the active context.
func (a *AliasCollection) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.aliases[a.context]))
	for name := range a.aliases[a.context] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetContext switches the active context and writes the Context feature.
// It fails if the context is out of range, the Context alias is unmapped
// or the write is rejected.
func (a *AliasCollection) SetContext(context int) bool {
	if context < 0 || context >= a.contexts {
		return false
	}

	// The write may fire transport events whose handlers read the
	// collection, so no lock is held across it.
	a.mu.RLock()
	feature := a.lookup(a.context, AliasContext)
	a.mu.RUnlock()

	if feature == nil || !feature.Set(context) {
		return false
	}

	a.mu.Lock()
	a.context = context
	a.mu.Unlock()
	return true
}

// Sync makes the active context follow the Context feature's cached value.
func (a *AliasCollection) Sync() {
	a.mu.Lock()
	defer a.mu.Unlock()

	feature := a.lookup(a.context, AliasContext)
	if feature == nil {
		return
	}
	if v := feature.Value(); v < a.contexts {
		a.context = v
	}
}

// IsGeneric reports whether feature is reachable in the active context under
// one of the generic alias names.
func (a *AliasCollection) IsGeneric(feature *Feature) bool {
	if feature == nil {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	for alias, name := range a.aliases[a.context] {
		if name == feature.Name() && slices.Contains(generic, alias) {
			return true
		}
	}
	return false
}
