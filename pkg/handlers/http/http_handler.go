package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Chat
	ChatHandler Handler

	// Security
	SecurityStatusHandler Handler
	SecurityResetHandler  Handler
	SecurityHealthHandler Handler
}
