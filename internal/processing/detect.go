package processing

import (
	"strings"

	"kassa/pkg/models"
)

// receiptKeywords flag an email as a potential receipt. Matching is
// case-insensitive over subject and both bodies.
var receiptKeywords = []string{
	"rechnung", "invoice", "receipt", "beleg", "quittung",
	"kaufbeleg", "kassenbon", "zahlungsbeleg", "bill",
	"payment confirmation", "zahlungsbestätigung", "order confirmation",
	"bestellbestätigung", "purchase", "kauf", "total", "gesamt",
	"betrag", "paypal", "bezahlt",
}

func isReceiptEmail(msg models.InboundMessage) bool {
	content := strings.ToLower(msg.Subject + " " + msg.TextBody + " " + msg.HTMLBody)

	for _, keyword := range receiptKeywords {
		if strings.Contains(content, keyword) {
			return true
		}
	}

	for _, att := range msg.Attachments {
		if isReceiptAttachment(att) {
			return true
		}
	}
	return false
}

// isReceiptAttachment accepts PDFs, images, and anything whose file name
// suggests a receipt.
func isReceiptAttachment(att models.Attachment) bool {
	if strings.HasPrefix(att.ContentType, "application/pdf") {
		return true
	}
	if strings.HasPrefix(att.ContentType, "image/") {
		return true
	}

	name := strings.ToLower(att.Name)
	return strings.Contains(name, "receipt") || strings.Contains(name, "rechnung") ||
		strings.Contains(name, "invoice") || strings.Contains(name, "beleg")
}

// isDocumentCandidate additionally accepts a .pdf extension. Some senders
// deliver PDFs as application/octet-stream with an unremarkable file name.
func isDocumentCandidate(att models.Attachment) bool {
	return isReceiptAttachment(att) || strings.HasSuffix(strings.ToLower(att.Name), ".pdf")
}
