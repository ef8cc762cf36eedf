package handlers

// AppHandlers holds every handler in the application.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	AccountHandler *AccountHandler
	ReadingHandler *ReadingHandler
	AdminHandler   *AdminHandler
}
