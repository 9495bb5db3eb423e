package testhelpers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gourmich/recipeform/internal/model"
)

const stubSecret = "stub-jwt-secret"

type stubUser struct {
	email string
	hash  []byte
}

// StubAPI is an in-memory catalog server speaking the same REST contract as the
// real backend. Tokens are HS256 JWTs carrying the username as subject.
type StubAPI struct {
	Server *httptest.Server

	mu        sync.Mutex
	users     map[string]stubUser
	recipes   map[int64]model.Recipe
	favorites map[string]map[int64]bool
	nextID    int64
	requests  []string
}

// NewStubAPI starts a stub server that is closed when t finishes.
func NewStubAPI(t *testing.T) *StubAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := &StubAPI{
		users:     make(map[string]stubUser),
		recipes:   make(map[int64]model.Recipe),
		favorites: make(map[string]map[int64]bool),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Server.Close)
	return s
}

// URL returns the server root.
func (s *StubAPI) URL() string { return s.Server.URL }

// AddUser registers an account directly.
func (s *StubAPI) AddUser(t *testing.T, username, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = stubUser{email: email, hash: hash}
}

// AddRecipe stores r under a fresh id and returns the id.
func (s *StubAPI) AddRecipe(r model.Recipe) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.recipes[r.ID] = r
	return r.ID
}

// Recipe returns the stored recipe id.
func (s *StubAPI) Recipe(id int64) (model.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	return r, ok
}

// Requests returns "METHOD path" for every request served so far.
func (s *StubAPI) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// IssueToken signs a token for username valid for ttl.
func (s *StubAPI) IssueToken(username string, ttl time.Duration) string {
	return IssueToken(username, ttl, stubSecret)
}

// IssueToken signs an HS256 token for username with secret.
func IssueToken(username string, ttl time.Duration, secret string) string {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return token
}

func (s *StubAPI) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record)

	api := r.Group("/api")
	{
		api.GET("/categories", func(c *gin.Context) { c.JSON(http.StatusOK, model.Categories) })

		recipes := api.Group("/recipes")
		recipes.GET("", s.listRecipes)
		recipes.GET("/latest", s.latestRecipes)
		recipes.GET("/by-id/:id", s.getRecipe)
		recipes.POST("", s.requireAuth, s.createRecipe)
		recipes.PUT("/by-id/:id", s.requireAuth, s.updateRecipe)
		recipes.DELETE("/by-id/:id", s.requireAuth, s.deleteRecipe)

		auth := api.Group("/auth")
		auth.POST("/login", s.login)
		auth.POST("/register", s.register)
		auth.GET("/check-username", s.checkUsername)
		auth.GET("/check-email", s.checkEmail)

		favs := api.Group("/favorites", s.requireAuth)
		favs.GET("", s.listFavorites)
		favs.POST("/toggle", s.toggleFavorite)
		favs.GET("/is-favorite/:id", s.isFavorite)
	}
	return r
}

func (s *StubAPI) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, c.Request.Method+" "+c.Request.URL.Path)
	s.mu.Unlock()
	c.Next()
}

// requireAuth validates the bearer token and stores the username in the context.
func (s *StubAPI) requireAuth(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		return
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(stubSecret), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
		return
	}
	c.Set("username", sub)
	c.Next()
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return 0, false
	}
	return id, true
}

func (s *StubAPI) sortedRecipes() []model.Recipe {
	out := make([]model.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b model.Recipe) int { return int(a.ID - b.ID) })
	return out
}

func (s *StubAPI) listRecipes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedRecipes())
}

func (s *StubAPI) latestRecipes(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "3"))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid n"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sortedRecipes()
	slices.Reverse(all)
	c.JSON(http.StatusOK, all[:min(n, len(all))])
}

func (s *StubAPI) getRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, found := s.recipes[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func recipeFromPayload(p model.RecipePayload) model.Recipe {
	r := model.Recipe{
		Title:          p.Title,
		Description:    p.Description,
		AuthorUsername: p.AuthorUsername,
		Instructions:   p.Instructions,
		ImageURL:       p.ImageURL,
		CookingTime:    p.CookingTime,
		Difficulty:     p.Difficulty,
		Category:       p.Category,
	}
	for _, ing := range p.Ingredients {
		r.Ingredients = append(r.Ingredients, model.IngredientDraft{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     model.Unit(ing.Unit),
		})
	}
	return r
}

func (s *StubAPI) createRecipe(c *gin.Context) {
	var p model.RecipePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.Title == "" || len(p.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and ingredients are required"})
		return
	}
	r := recipeFromPayload(p)
	r.ID = s.AddRecipe(r)
	c.JSON(http.StatusCreated, r)
}

func (s *StubAPI) updateRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var p model.RecipePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.recipes[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	r := recipeFromPayload(p)
	r.ID = id
	s.recipes[id] = r
	c.JSON(http.StatusOK, r)
}

func (s *StubAPI) deleteRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.recipes[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	delete(s.recipes, id)
	c.Status(http.StatusNoContent)
}

func (s *StubAPI) login(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	u, found := s.users[creds.Username]
	s.mu.Unlock()
	if !found || bcrypt.CompareHashAndPassword(u.hash, []byte(creds.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": s.IssueToken(creds.Username, time.Hour)})
}

func (s *StubAPI) register(c *gin.Context) {
	var reg model.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[reg.Username]; taken {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}
	s.users[reg.Username] = stubUser{email: reg.Email, hash: hash}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered"})
}

func (s *StubAPI) checkUsername(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.users[c.Query("username")]
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *StubAPI) checkEmail(c *gin.Context) {
	email := c.Query("email")
	s.mu.Lock()
	defer s.mu.Unlock()
	exists := false
	for _, u := range s.users {
		if u.email == email {
			exists = true
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *StubAPI) listFavorites(c *gin.Context) {
	user := c.GetString("username")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Favorite{}
	for _, r := range s.sortedRecipes() {
		if s.favorites[user][r.ID] {
			out = append(out, favoriteOf(r))
		}
	}
	c.JSON(http.StatusOK, out)
}

func favoriteOf(r model.Recipe) model.Favorite {
	return model.Favorite{
		ID:             r.ID,
		RecipeID:       r.ID,
		Title:          r.Title,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		AuthorUsername: r.AuthorUsername,
		CookingTime:    r.CookingTime,
		Category:       r.Category,
	}
}

func (s *StubAPI) toggleFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("recipeId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}
	user := c.GetString("username")
	s.mu.Lock()
	defer s.mu.Unlock()
	r, found := s.recipes[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if s.favorites[user] == nil {
		s.favorites[user] = make(map[int64]bool)
	}
	if s.favorites[user][id] {
		delete(s.favorites[user], id)
		c.String(http.StatusOK, model.UnfavoriteResponse)
		return
	}
	s.favorites[user][id] = true
	c.JSON(http.StatusOK, favoriteOf(r))
}

func (s *StubAPI) isFavorite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user := c.GetString("username")
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.favorites[user][id])
}
