package azure

import "github.com/matzehuels/architectures/pkg/icons"

// Azure data platform services.
var (
	DataFactory           = service("data", "data-factory.png")
	DataLake              = service("data", "data-lake.png")
	AzureDatabricks       = service("data", "azure-databricks.png")
	AnalysisService       = service("data", "analysis-service.png")
	AzureSynapseAnalytics = service("data", "azure-synapse-analytics.png")
	CosmosDb              = labeled("data", "cosmos-db.png", "Cosmos DB")
	SqlDatabase           = labeled("data", "sql-database.png", "SQL Database")
	EventHubs             = service("data", "event-hubs.png")
	StreamAnalytics       = service("data", "stream-analytics.png")
)

func init() {
	icons.Register(
		DataFactory,
		DataLake,
		AzureDatabricks,
		AnalysisService,
		AzureSynapseAnalytics,
		CosmosDb,
		SqlDatabase,
		EventHubs,
		StreamAnalytics,
	)
}
