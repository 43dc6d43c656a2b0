package core

import "time"

// Metrics records operational counters for gateway traffic and record keeping
type Metrics interface {
	// ObserveGatewayRequest records one HTTP exchange with the gateway.
	// status is 0 when no response was received.
	ObserveGatewayRequest(environment, method, endpoint string, status int, duration time.Duration)
	// IncCharge counts a submitted charge by outcome
	IncCharge(environment string, succeeded bool)
	// IncTransfer counts a recorded transfer by status
	IncTransfer(environment, status string)
	// AddSynced counts records created and updated by a bulk sync of kind ("plans", "subscriptions")
	AddSynced(environment, kind string, created, updated int)
}
