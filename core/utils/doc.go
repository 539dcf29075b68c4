// Package utils provides small conversion helpers shared by the store adapters.
// It includes strict integer parsing for values coming back from Redis scripts
// and SQL aggregates.
package utils
