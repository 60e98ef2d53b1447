package docs

// @title           Location Verification API
// @version         1.0
// @description     Verifies that a user's reported GPS position is close to a target address and reports a GREEN / YELLOW / RED productivity status. Keeps the last verified location of each user.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
