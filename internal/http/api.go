package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"toystore/internal/auth"
	"toystore/internal/domain"
	"toystore/internal/service"
)

// User-facing messages kept verbatim from the original frontend contract.
const (
	msgInvalidCredentials = "Credenciales inválidas."
	msgLoginInternal      = "Error interno del servidor durante el login."
	msgSearchInternal     = "Error interno del servidor al procesar la búsqueda."
	msgContactMissing     = "Faltan campos requeridos. Asegúrate de enviar nombre, correo electrónico y mensaje."
	msgContactBadEmail    = "El formato del correo electrónico no es válido."
	msgContactThanks      = "Mensaje de contacto enviado exitosamente. ¡Gracias por contactarnos!"
	msgContactInternal    = "Ocurrió un error interno del servidor. Inténtalo de nuevo más tarde."
	msgMessagesInternal   = "Error al obtener mensajes."
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	products service.ProductService
	messages service.MessageService
	tokens   *auth.TokenService
	logger   *logrus.Logger
}

func NewHandler(
	users service.UserService,
	products service.ProductService,
	messages service.MessageService,
	tokens *auth.TokenService,
	logger *logrus.Logger,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:    users,
		products: products,
		messages: messages,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterRoutes mounts all routes. globalLimit and loginLimit are optional
// rate-limiting middlewares; nil disables them.
func (h *Handler) RegisterRoutes(router *gin.Engine, globalLimit, loginLimit gin.HandlerFunc) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	if globalLimit != nil {
		api.Use(globalLimit)
	}
	{
		login := []gin.HandlerFunc{}
		if loginLimit != nil {
			login = append(login, loginLimit)
		}
		login = append(login, h.login)
		api.POST("/auth/login", login...)

		api.GET("/juguetes", h.searchProducts)
		api.POST("/contacto", h.submitContact)

		admin := api.Group("/admin", auth.RequireAuth(h.tokens), auth.RequireAdmin())
		admin.GET("/mensajes", h.listMessages)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}

	token, role, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}
		h.logger.Errorf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgLoginInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
}

func (h *Handler) searchProducts(c *gin.Context) {
	query := c.Query("q")
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}

	result, err := h.products.Search(c.Request.Context(), query, page)
	if err != nil {
		h.logger.Errorf("search products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSearchInternal})
		return
	}

	items := make([]productResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = productResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"juguetes":    items,
		"totalItems":  result.TotalItems,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgContactMissing})
		return
	}

	if _, err := h.messages.Submit(c.Request.Context(), req.Name, req.Email, req.Message); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgContactMissing})
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgContactBadEmail})
		default:
			h.logger.Errorf("submit contact: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgContactInternal})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msgContactThanks})
}

type messageResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	ReceivedAt string `json:"received_at"`
}

func (h *Handler) listMessages(c *gin.Context) {
	messages, err := h.messages.ListMessages(c.Request.Context())
	if err != nil {
		h.logger.Errorf("list messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgMessagesInternal})
		return
	}

	resp := make([]messageResponse, len(messages))
	for i := range messages {
		resp[i] = messageToResponse(messages[i])
	}
	c.JSON(http.StatusOK, resp)
}

func messageToResponse(msg domain.ContactMessage) messageResponse {
	return messageResponse{
		ID:         msg.ID,
		Name:       msg.Name,
		Email:      msg.Email,
		Message:    msg.Message,
		ReceivedAt: msg.ReceivedAt.Format(time.RFC3339),
	}
}
