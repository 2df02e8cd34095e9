package routes

import (
	"net/http"

	"Gin_postgres_library_api/app"
	"Gin_postgres_library_api/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	bookCtl := controllers.NewBookController(s)
	patronCtl := controllers.NewPatronController(s)
	borrowCtl := controllers.NewBorrowingController(s)

	authMW := app.AuthRequired(a.Tokens, a.Denylist)

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })

	// ------------------------------
	// 登录（公开）/ 登出（受保护）
	// ------------------------------
	r.POST("/api/auth/login", authCtl.Login)

	api := r.Group("/api", authMW)
	{
		api.POST("/auth/logout", authCtl.Logout)
		api.GET("/auth/me", authCtl.Me)
	}

	books := api.Group("/books")
	{
		books.GET("", bookCtl.ListBooks)
		books.GET("/:id", bookCtl.GetBook)
		books.POST("", bookCtl.CreateBook)
		books.PUT("/:id", bookCtl.UpdateBook)
		books.DELETE("/:id", bookCtl.DeleteBook)
	}

	patrons := api.Group("/patrons")
	{
		patrons.GET("", patronCtl.ListPatrons)
		patrons.GET("/:id", patronCtl.GetPatron)
		patrons.POST("", patronCtl.CreatePatron)
		patrons.PUT("/:id", patronCtl.UpdatePatron)
		patrons.DELETE("/:id", patronCtl.DeletePatron)
	}

	// ------------------------------
	// 借还
	// ------------------------------
	records := api.Group("/borrowingrecords")
	{
		records.POST("/borrow/:bookId/patron/:patronId", borrowCtl.Borrow)
		records.PUT("/return/:bookId/patron/:patronId", borrowCtl.Return)
		records.GET("", borrowCtl.ListRecords) // ?status=open|returned&bookId=&patronId=
		records.GET("/:id", borrowCtl.GetRecord)
	}
}
