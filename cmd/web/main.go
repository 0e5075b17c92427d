// @title           campaignhub API
// @version         1.0
// @description     Workflow заявок, заказов и выплат для инфлюенс-кампаний.
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "campaignhub_backend/internal/app"

func main() {
	app.Run()
}
