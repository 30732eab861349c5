package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	stateCookie = "pancymod_oauth_state"
	// discordUserURL returns the authorizing user.
	discordUserURL = "https://discord.com/api/v10/users/@me"
)

// DiscordEndpoint is Discord's OAuth2 endpoint.
var DiscordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// OAuth runs the Discord authorization code flow used by the dashboard to
// identify a moderator.
type OAuth struct {
	config  *oauth2.Config
	userURL string
}

// NewOAuth creates the flow with the identify and guilds scopes.
func NewOAuth(clientID, clientSecret, redirectURL string) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify", "guilds"},
			Endpoint:     DiscordEndpoint,
		},
		userURL: discordUserURL,
	}
}

// DiscordUser is the identity returned after a successful login.
type DiscordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (o *OAuth) login(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int((5 * time.Minute).Seconds()), "/oauth", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, o.config.AuthCodeURL(state))
}

func (o *OAuth) callback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado OAuth inválido"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/oauth", "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el código de autorización"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		logger.Warn(fmt.Sprintf("Intercambio OAuth fallido: %v", err), "OAuth")
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo completar la autorización"})
		return
	}

	user, err := o.fetchUser(ctx, token)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo obtener el usuario OAuth: %v", err), "OAuth")
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo obtener el usuario"})
		return
	}

	logger.Info(fmt.Sprintf("Inicio de sesión OAuth de %s (%s)", user.Username, user.ID), "OAuth")
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (o *OAuth) fetchUser(ctx context.Context, token *oauth2.Token) (*DiscordUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.userURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord returned %s", resp.Status)
	}
	var user DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}
