// Package production provides ready-made observers and tooling around a
// Subject: channel forwarding, recording and persistence, Prometheus
// counters, structured logging and visualization.
package production
