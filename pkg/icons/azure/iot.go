package azure

import "github.com/matzehuels/architectures/pkg/icons"

// Azure IoT services.
var (
	DeviceProvisioningServices      = service("iot", "device-provisioning-services.png")
	DigitalTwins                    = service("iot", "digital-twins.png")
	IotCentralApplications          = service("iot", "iot-central-applications.png")
	IotHubSecurity                  = service("iot", "iot-hub-security.png")
	IotHub                          = service("iot", "iot-hub.png")
	Maps                            = service("iot", "maps.png")
	Sphere                          = service("iot", "sphere.png")
	TimeSeriesInsightsEnvironments  = service("iot", "time-series-insights-environments.png")
	TimeSeriesInsightsEventsSources = service("iot", "time-series-insights-events-sources.png")
	Windows10IotCoreServices        = service("iot", "windows-10-iot-core-services.png")
)

func init() {
	icons.Register(
		DeviceProvisioningServices,
		DigitalTwins,
		IotCentralApplications,
		IotHubSecurity,
		IotHub,
		Maps,
		Sphere,
		TimeSeriesInsightsEnvironments,
		TimeSeriesInsightsEventsSources,
		Windows10IotCoreServices,
	)
}
