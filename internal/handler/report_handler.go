package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	summarySentMessage   = "Summary email sent successfully."
	summaryNoDataMessage = "No data available for the previous day."
	summaryErrorMessage  = "Error sending summary email."
)

// SendSummary 同步执行一次完整的日报流程。
// 发送之前任一阶段失败返回 500；邮件投递失败只记录日志，仍返回 200。
func (a *API) SendSummary(c *gin.Context) {
	result, err := a.reports.Run(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] error sending summary email (run=%s): %v", result.RunID, err)
		respondText(c, http.StatusInternalServerError, result.RunID, summaryErrorMessage)
		return
	}

	if result.Skipped {
		respondText(c, http.StatusOK, result.RunID, summaryNoDataMessage)
		return
	}

	respondText(c, http.StatusOK, result.RunID, summarySentMessage)
}

// PreviewSummary 生成日报 HTML 但不发送邮件。
func (a *API) PreviewSummary(c *gin.Context) {
	preview, err := a.reports.Preview(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] error previewing summary email (run=%s): %v", preview.RunID, err)
		respondText(c, http.StatusInternalServerError, preview.RunID, "Error generating summary preview.")
		return
	}

	if preview.Skipped {
		respondText(c, http.StatusNotFound, preview.RunID, summaryNoDataMessage)
		return
	}

	c.Header(reportRunIDHeader, preview.RunID)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(preview.Email.HTML))
}
