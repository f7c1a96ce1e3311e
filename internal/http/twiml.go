package http

import (
	"net/http"

	"github.com/beevik/etree"

	"gastos/internal/log"
)

// renderTwiML wraps message in a <Response><Message> envelope.
func renderTwiML(message string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateElement("Response").CreateElement("Message").SetText(message)
	return doc.WriteToBytes()
}

func writeTwiML(w http.ResponseWriter, r *http.Request, status int, message string, logger *log.Logger) {
	body, err := renderTwiML(message)
	if err != nil {
		log.FromContext(r.Context(), logger).ErrorContext(r.Context(), "Failed to render reply", log.FieldError, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
