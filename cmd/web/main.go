// @title           Visa Center API
// @version         1.0
// @description     Бэкенд визового центра: анкетный мастер, рассмотрение заявок, оплата консульского сбора (документация Swagger).
// @contact.name    Visa Center
// @contact.email   support@visacenter.mn
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "visacenter_backend/internal/app"

func main() {
	app.Run()
}
