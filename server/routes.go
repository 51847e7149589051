package server

func (s *Server) initRoutes() {
	// Symbol store, open to everyone
	s.RegisterRouteHandler("GET "+RouteEvaluate, ChainMiddleware(s.EvaluateHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteFact, ChainMiddleware(s.FactHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFacts, ChainMiddleware(s.FactsHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("POST "+RouteAuthenticate, ChainMiddleware(s.AuthenticateHandler(), s.APIMiddleware()...))

	// Session protected; the handlers resolve the session through the service
	s.RegisterRouteHandler("GET "+RouteContent, ChainMiddleware(s.ContentListHandler(), s.APIMiddleware(s.SessionMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteContentItem, ChainMiddleware(s.ContentRevealHandler(), s.APIMiddleware(s.SessionMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteObservation, ChainMiddleware(s.ObservationHandler(), s.APIMiddleware(s.SessionMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteEvents, ChainMiddleware(s.EventsHandler(), s.APIMiddleware(s.SessionMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteDistricts, ChainMiddleware(s.DistrictsHandler(), s.APIMiddleware(s.SessionMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteFlow, ChainMiddleware(s.FlowHandler(), s.APIMiddleware(s.SessionMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteFlowNode, ChainMiddleware(s.FlowNodeHandler(), s.APIMiddleware(s.SessionMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteResonate, ChainMiddleware(s.ResonateHandler(), s.APIMiddleware(s.SessionMiddleware)...))

	s.RegisterRouteHandler("GET "+RouteAsk, ChainMiddleware(s.AskHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// CORS preflight for every route
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
