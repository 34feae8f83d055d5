package web

import (
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templatesFS embed.FS

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"usd": func(v float64) string {
			return money.NewFromFloat(v, money.USD).Display()
		},
		"pct": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64) + "%"
		},
		"qty": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
	}
}

func NewRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	tmpl := template.Must(template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)

	protected := r.Group("")
	protected.Use(h.requireAuth())
	{
		protected.GET("/", h.dashboard)
		protected.POST("/settings", h.saveSettings)
		protected.POST("/equities", h.submitEquity)
		protected.POST("/equities/delete", h.deleteEquity)
		protected.POST("/options", h.submitOption)
		protected.POST("/options/delete", h.deleteOption)
	}

	return r
}

func (h *Handlers) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debugf("%s %s -> %d in %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
