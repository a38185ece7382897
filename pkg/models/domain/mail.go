package domain

// Attachment is a single file attached to an outgoing message
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is an email handed to the delivery collaborator
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}
