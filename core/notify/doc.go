// Package notify delivers operator alerts.
//
// Alerts go to a Kafka topic when brokers are configured and always to the
// application log. Multi fans a message out to several channels.
package notify
