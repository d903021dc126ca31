package services

import (
	"bridgeai/types"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	generateFallbackError = "Failed to generate image"
	downloadError         = "Failed to download image"
)

func (a *Api) Health() fiber.Handler {
	return func(ctx *fiber.Ctx) error {

		return ctx.Status(fiber.StatusOK).JSON(types.HealthResponse{
			Status:    fiber.StatusOK,
			TimeStamp: time.Now().Unix(),
		})
	}
}

func (a *Api) GenerateImage() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		logger := HttpLogger("generate", ctx)
		clientID := ctx.Get(headerClientID)
		reqID := ReqID(ctx)

		fail := func(msg string) error {
			if msg == "" {
				msg = generateFallbackError
			}
			a.hub.SendTo(clientID, WSEvent{Type: EventGenerateFailed, RequestID: reqID, Message: msg})
			return ctx.Status(fiber.StatusInternalServerError).JSON(types.GenerateImageResponse{
				Success: false,
				Error:   msg,
			})
		}

		var requestBody types.GenerateImageRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			logger.Error("image generation error", "err", err)
			return fail(fmt.Sprintf("invalid request body: %v", err))
		}

		a.hub.SendTo(clientID, WSEvent{Type: EventGenerateStarted, RequestID: reqID, Prompt: requestBody.Prompt})

		prompt := ComposePrompt(a.landmark, requestBody.Prompt)
		logger.Debug("composed prompt", "prompt", prompt)

		imageURL, err := a.provider.Generate(ctx.UserContext(), prompt)
		if err != nil {
			logger.Error("image generation error", "err", err)
			return fail(err.Error())
		}

		a.hub.SendTo(clientID, WSEvent{Type: EventGenerateCompleted, RequestID: reqID, ImageURL: imageURL})
		return ctx.Status(fiber.StatusOK).JSON(types.GenerateImageResponse{
			Success:  true,
			ImageURL: imageURL,
		})
	}
}

func (a *Api) DownloadImage() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		logger := HttpLogger("download", ctx)

		var requestBody types.DownloadImageRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			logger.Error("error downloading image", "err", err)
			return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{Error: downloadError})
		}

		data, err := a.fetcher.Fetch(ctx.UserContext(), requestBody.ImageURL)
		if err != nil {
			logger.Error("error downloading image", "url", requestBody.ImageURL, "err", err)
			return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{Error: downloadError})
		}

		filename := types.DownloadFilename(a.filenamePrefix, a.now())
		logger.Debug("relaying image", "bytes", len(data), "filename", filename)

		// the upstream content type is ignored; saves are always offered as png
		ctx.Set(fiber.HeaderContentType, "image/png")
		ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
		return ctx.Status(fiber.StatusOK).Send(data)
	}
}
