// Package internaldefs holds the counter and histogram definitions shared
// by the metric exporters. It exists so the Prometheus and OTel exporters
// render the same names and helps without duplicating the tables.
package internaldefs
