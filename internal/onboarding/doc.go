// Package onboarding defines the onboarding GATT service: its fixed UUIDs,
// characteristic metadata, the values served to a connected central and the
// handling of onboarding requests written by it.
//
// The package does not depend on any Bluetooth stack. The peripheral package
// translates the characteristic table into a GATT service of the host stack.
package onboarding
