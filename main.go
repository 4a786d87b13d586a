package main

import (
	"context"
	"time"

	"github.com/tenangapp/tenang/internal/app"
)

// @title           Tenang API
// @version         1.0
// @description     Tenang provides account, passcode, counselor directory and notification APIs for the mobile app.
// @termsOfService  https://tenang.app/terms
// @contact.name    Contact Support
// @contact.url     https://tenang.app/contact
// @contact.email   support@tenang.app
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @server          https://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()

	wait := application.Start()
	<-wait

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
