package peripheral

// AdvertisementStatus is the publication state of the onboarding service
type AdvertisementStatus int

const (
	// Created is the state before the service is published for the first time.
	Created AdvertisementStatus = iota
	// Started means the advertisement request was issued to the stack.
	Started
	// Stopped means publication was cancelled.
	Stopped
	// Aborted means the stack could not advertise or gave up advertising.
	Aborted
)

func (s AdvertisementStatus) String() string {
	switch s {
	case Created:
		return "Created"
	case Started:
		return "Started"
	case Stopped:
		return "Stopped"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}
