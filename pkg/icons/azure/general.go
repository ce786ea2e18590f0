package azure

import "github.com/matzehuels/architectures/pkg/icons"

// Azure portal and general services.
var (
	Allresources     = service("general", "allresources.png")
	Azurehome        = service("general", "azurehome.png")
	Developertools   = service("general", "developertools.png")
	Helpsupport      = service("general", "helpsupport.png")
	Information      = service("general", "information.png")
	Managementgroups = service("general", "managementgroups.png")
	Marketplace      = service("general", "marketplace.png")
	Quickstartcenter = service("general", "quickstartcenter.png")
	Recent           = service("general", "recent.png")
	Reservations     = service("general", "reservations.png")
	Resource         = service("general", "resource.png")
	Resourcegroups   = service("general", "resourcegroups.png")
	Servicehealth    = service("general", "servicehealth.png")
	Shareddashboard  = service("general", "shareddashboard.png")
	Subscriptions    = service("general", "subscriptions.png")
	Support          = service("general", "support.png")
	Supportrequests  = service("general", "supportrequests.png")
	Tag              = service("general", "tag.png")
	Tags             = service("general", "tags.png")
	Templates        = service("general", "templates.png")
	Twousericon      = service("general", "twousericon.png")
	Userhealthicon   = service("general", "userhealthicon.png")
	Usericon         = service("general", "usericon.png")
	Userprivacy      = service("general", "userprivacy.png")
	Userresource     = service("general", "userresource.png")
	Whatsnew         = service("general", "whatsnew.png")
)

func init() {
	icons.Register(
		Allresources,
		Azurehome,
		Developertools,
		Helpsupport,
		Information,
		Managementgroups,
		Marketplace,
		Quickstartcenter,
		Recent,
		Reservations,
		Resource,
		Resourcegroups,
		Servicehealth,
		Shareddashboard,
		Subscriptions,
		Support,
		Supportrequests,
		Tag,
		Tags,
		Templates,
		Twousericon,
		Userhealthicon,
		Usericon,
		Userprivacy,
		Userresource,
		Whatsnew,
	)
}
