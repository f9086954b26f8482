package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const docsPageHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Vehicle Tracking API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css">
  <style>.swagger-ui .topbar { display: none }</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/api-docs/openapi.yaml',
      dom_id: '#swagger-ui',
      validatorUrl: null
    });
  </script>
</body>
</html>`

func (h *Handler) docsPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPageHTML))
}

func (h *Handler) docsSpec(c *gin.Context) {
	c.File("docs/openapi.yaml")
}
