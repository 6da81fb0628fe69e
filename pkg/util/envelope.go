package util

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// OK writes the standard success envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// OKMessage writes a success envelope carrying a user-facing message.
func OKMessage(c *fiber.Ctx, data any, message string) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(body)
}

// Created writes a success envelope with status 201.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}
