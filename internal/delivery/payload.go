package delivery

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To  []address `json:"to"`
	CC  []address `json:"cc,omitempty"`
	BCC []address `json:"bcc,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	Disposition string `json:"disposition"`
}

type mailPayload struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
	Attachments      []attachment      `json:"attachments,omitempty"`
}

func (c *Client) payload(msg Message) mailPayload {
	p := mailPayload{
		Personalizations: []personalization{{
			To:  []address{{Email: msg.To}},
			CC:  addresses(msg.CC),
			BCC: addresses(msg.BCC),
		}},
		From:    address{Email: c.cfg.FromAddress, Name: c.cfg.FromName},
		Subject: msg.Subject,
		Content: []content{{Type: "text/html", Value: msg.HTML}},
	}
	for _, a := range msg.Attachments {
		p.Attachments = append(p.Attachments, attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			Type:        a.Type,
			Disposition: "attachment",
		})
	}
	return p
}

func addresses(emails []string) []address {
	if len(emails) == 0 {
		return nil
	}
	out := make([]address, 0, len(emails))
	for _, e := range emails {
		out = append(out, address{Email: e})
	}
	return out
}
