// Package activity holds the RUNNING/PAUSED switch of the flash sale.
//
// The state lives in a Redis hash so every instance of the order intake
// service sees a pause immediately. Only RUNNING to PAUSED is reachable from
// this module.
package activity
