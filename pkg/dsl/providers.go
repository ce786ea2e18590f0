package dsl

// Bundled providers register their services for icon lookups.
import _ "github.com/matzehuels/architectures/pkg/icons/azure"
