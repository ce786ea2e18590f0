package azure

import "github.com/matzehuels/architectures/pkg/icons"

// Azure AI and analytics services.
var (
	PowerBi           = labeled("ai", "power-bi.png", "Power BI")
	CognitiveServices = service("ai", "cognitive-services.png")
	MachineLearning   = service("ai", "machine-learning.png")
	BotServices       = service("ai", "bot-services.png")
)

func init() {
	icons.Register(
		PowerBi,
		CognitiveServices,
		MachineLearning,
		BotServices,
	)
}
