package onboarding

// Service and characteristic UUIDs of the onboarding service
const (
	ServiceUUID = "3B8D9532-ABD4-4F22-B1A5-717589EE84CB"

	OnboardingRequestCharUUID = "AC316D7E-8ADB-4D78-A7F8-DF628DB2CFFC"
	OnboardingResultCharUUID  = "CAEC2EBC-E1D9-11E6-BF01-FE55135034F2"
	ProtocolVersionCharUUID   = "951A87A5-5DE0-4A06-B846-871B0C0CCAEF"
	RossVersionCharUUID       = "0E531536-1FA2-4867-AD78-DFD4949731DF"
	WiFiListCharUUID          = "720BD6A4-5085-4CE7-AEE7-3644DBA6E5DC"
)

// User descriptions published with each characteristic
const (
	OnboardingRequestDescription = "Onboarding Request Characteristic"
	OnboardingResultDescription  = "Onboarding Result Characteristic"
	ProtocolVersionDescription   = "Protocol Version Characteristic"
	RossVersionDescription       = "ROSS Version Characteristic"
	WiFiListDescription          = "WifiList Status Characteristic"
)

// Default values served by the read characteristics
const (
	DefaultProtocolVersion = "0"
	DefaultFirmwareVersion = "1.5.14.0"
	DefaultResultCode      = int32(400)
)
