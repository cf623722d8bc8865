package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medivault/medivault-api/internal/utils"
)

const geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

const chatSystemPrompt = `You are a helpful assistant for a medical-records portal used by patients and doctors. Answer general health and portal-usage questions politely. Never provide a diagnosis or prescribe medication; always advise consulting a registered doctor for medical decisions.`

// HandleChat proxies a single chat message to the Gemini API and returns the
// extracted reply text.
func (h *Handler) HandleChat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		utils.Fail(c, utils.BadRequest("Message is required"))
		return
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: chatSystemPrompt}}},
			{Role: "model", Parts: []geminiPart{{Text: "Understood. I will follow these rules."}}},
			{Role: "user", Parts: []geminiPart{{Text: req.Message}}},
		},
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		geminiURL+"?key="+h.Config.GeminiAPIKey, bytes.NewBuffer(body))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		utils.Fail(c, utils.Internal("Failed to reach AI service"))
		return
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		utils.Fail(c, utils.Internal("Failed to read AI response"))
		return
	}
	if httpResp.StatusCode != http.StatusOK {
		log.Printf("gemini error response: %s", respBody)
		utils.Fail(c, utils.Internal("AI service returned an error"))
		return
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		utils.Fail(c, utils.Internal("Failed to parse AI response"))
		return
	}

	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		utils.Respond(c, http.StatusOK, "success", gin.H{
			"reply": parsed.Candidates[0].Content.Parts[0].Text,
		})
		return
	}

	utils.Fail(c, utils.Internal("AI returned an empty response"))
}
