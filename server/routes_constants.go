package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Symbol store
	RouteEvaluate = "/evaluate"
	RouteFact     = "/fact"
	RouteFacts    = "/facts"

	// Sessions
	RouteAuthenticate = "/authenticate"

	// Content
	RouteContent     = "/content"
	RouteContentItem = "/content/{id}"

	// Oracle and observations
	RouteAsk         = "/ask"
	RouteObservation = "/observation"

	// Flow
	RouteEvents    = "/events"
	RouteDistricts = "/districts"
	RouteFlow      = "/flow"
	RouteFlowNode  = "/flow/nodes/{id}"
	RouteResonate  = "/resonate"

	RouteHealth = "/healthz"
)

const (
	contentTypeJSON = "application/json"

	paramStatement = "statement"
	paramSession   = "session"
	paramMatch     = "match"
	paramQuestion  = "question"
)
