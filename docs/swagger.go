// Package docs provides Swagger documentation for the API.
package docs

// @title API Key Dashboard
// @version 1.0
// @description Manage Arent Kient API keys: Google sign-in, key CRUD and key events
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter `Bearer ` followed by a session token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
