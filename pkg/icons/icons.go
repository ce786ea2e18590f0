// Package icons describes cloud-service node variants and resolves their
// icon images.
//
// A [Service] is the variant descriptor for a provider node: which provider
// and category it belongs to, the icon file, and a display label. Provider
// packages such as [github.com/matzehuels/architectures/pkg/icons/azure]
// declare services as values and register them so declarative diagrams can
// refer to them by reference ("azure.data.data-factory").
//
// Icon paths are resolved against a root directory without checking that the
// file exists; a missing icon surfaces as a rendering error.
package icons

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/architectures/pkg/errors"
)

// Dir is the directory under the icon root that holds provider icon trees.
const Dir = "icons"

// Service is a provider node variant.
type Service struct {
	Provider string // e.g. "azure"
	Category string // e.g. "data"
	Icon     string // icon file name, e.g. "data-factory.png"
	Label    string // default display label
}

// Name returns the icon file stem ("data-factory").
func (s Service) Name() string {
	return strings.TrimSuffix(s.Icon, filepath.Ext(s.Icon))
}

// Ref returns the registry reference "provider.category.name".
func (s Service) Ref() string {
	return s.Provider + "." + s.Category + "." + s.Name()
}

// DefaultLabel returns the declared label, or one derived from the icon name.
func (s Service) DefaultLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return DefaultLabel(s.Icon)
}

// DefaultLabel derives a display label from an icon file name:
// "iot-hub-security.png" becomes "Iot Hub Security".
func DefaultLabel(icon string) string {
	stem := strings.TrimSuffix(icon, filepath.Ext(icon))
	return cases.Title(language.Und).String(strings.ReplaceAll(stem, "-", " "))
}

// Resolver maps services to icon file paths.
type Resolver struct {
	Root string
}

// Path returns the icon path for s under the resolver root.
func (r Resolver) Path(s Service) string {
	return filepath.Join(r.Root, Dir, s.Provider, s.Category, s.Icon)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Service{}
)

// Register adds services to the global registry, keyed by [Service.Ref].
// Provider packages call it from init.
func Register(services ...Service) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, s := range services {
		registry[s.Ref()] = s
	}
}

// Lookup returns the registered service for ref.
func Lookup(ref string) (Service, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[strings.ToLower(ref)]
	if !ok {
		return Service{}, errors.New(errors.ErrCodeUnknownIcon, "unknown service %q", ref)
	}
	return s, nil
}

// All returns every registered service sorted by reference.
func All() []Service {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Service, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Service) int { return strings.Compare(a.Ref(), b.Ref()) })
	return out
}
