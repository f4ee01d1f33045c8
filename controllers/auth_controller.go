package controllers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"veggie-shop/middleware"
	"veggie-shop/services"
)

type AuthController struct {
	service     *services.AuthService
	providerURL string
	logoutURL   string
	sessionTTL  time.Duration
	secure      bool
}

func NewAuthController(service *services.AuthService, providerURL, logoutURL string, sessionTTL time.Duration, secure bool) *AuthController {
	return &AuthController{
		service:     service,
		providerURL: providerURL,
		logoutURL:   logoutURL,
		sessionTTL:  sessionTTL,
		secure:      secure,
	}
}

func (ctrl *AuthController) callbackURL(c *gin.Context) string {
	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host + "/api/callback"
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ctrl.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// @Summary Start login
// @Description Redirect to the identity provider
// @Tags Authentication
// @Success 302
// @Router /login [get]
func (ctrl *AuthController) Login(c *gin.Context) {
	target, err := url.Parse(ctrl.providerURL)
	if err != nil {
		respondError(c, err)
		return
	}
	q := target.Query()
	q.Set("redirect_uri", ctrl.callbackURL(c))
	target.RawQuery = q.Encode()

	c.Redirect(http.StatusFound, target.String())
}

// @Summary Login callback
// @Description Verify the provider assertion, start a session and redirect home
// @Tags Authentication
// @Param token query string true "Signed identity assertion"
// @Success 302
// @Failure 401 {object} models.ErrorResponse
// @Router /callback [get]
func (ctrl *AuthController) Callback(c *gin.Context) {
	assertion := c.Query("token")
	if assertion == "" {
		respondError(c, services.ErrUnauthorized)
		return
	}

	token, _, err := ctrl.service.CompleteLogin(c.Request.Context(), assertion)
	if err != nil {
		respondError(c, err)
		return
	}

	ctrl.setSessionCookie(c, token, int(ctrl.sessionTTL.Seconds()))
	c.Redirect(http.StatusFound, "/")
}

// @Summary Logout
// @Description Clear the session and redirect to the provider's logout page
// @Tags Authentication
// @Success 302
// @Router /logout [get]
func (ctrl *AuthController) Logout(c *gin.Context) {
	ctrl.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, ctrl.logoutURL)
}

// @Summary Current user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/user [get]
func (ctrl *AuthController) GetUser(c *gin.Context) {
	user, err := ctrl.service.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User retrieved", user)
}
