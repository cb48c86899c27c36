package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, middleware ...e.MiddlewareFunc) {
	imports := server.Group("/api/import", middleware...)
	imports.POST("/daylio", importHandler.StartDaylioImport)
	imports.GET("/daylio/:job_id", importHandler.GetDaylioImport)
}
