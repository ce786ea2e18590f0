package azure

import "github.com/matzehuels/architectures/pkg/icons"

// Azure DevOps services.
var (
	ApplicationInsights = service("devops", "application-insights.png")
	Artifacts           = service("devops", "artifacts.png")
	Boards              = service("devops", "boards.png")
	Devops              = service("devops", "devops.png")
	DevtestLabs         = service("devops", "devtest-labs.png")
	Pipelines           = service("devops", "pipelines.png")
	Repos               = service("devops", "repos.png")
	TestPlans           = service("devops", "test-plans.png")
)

func init() {
	icons.Register(
		ApplicationInsights,
		Artifacts,
		Boards,
		Devops,
		DevtestLabs,
		Pipelines,
		Repos,
		TestPlans,
	)
}
