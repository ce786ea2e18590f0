// Package azure declares Microsoft Azure service nodes.
//
// Each exported value is an [icons.Service] usable with
// diagram.Context.NewService; importing the package registers every service
// so declarative diagrams can reference them as "azure.<category>.<name>".
package azure

import "github.com/matzehuels/architectures/pkg/icons"

// Provider is the provider key for Azure services.
const Provider = "azure"

func service(category, icon string) icons.Service {
	return icons.Service{Provider: Provider, Category: category, Icon: icon}
}

func labeled(category, icon, label string) icons.Service {
	s := service(category, icon)
	s.Label = label
	return s
}
