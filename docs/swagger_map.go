package docs

// @title           Map Service API
// @version         1.0
// @description     Map service turns smart bin telemetry into color-coded map markers. Serves the live map, a WebSocket marker stream and a read API.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
