package models

type User struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	ChatID   int64  `json:"chat_id"` // app-notification channel (Telegram chat)
}

// Contact is the resolved contact identity the dispatcher delivers to.
// Any field may be empty when the user never supplied it.
type Contact struct {
	Email  string
	Phone  string
	ChatID int64
}

func (u *User) Contact() Contact {
	return Contact{Email: u.Email, Phone: u.Phone, ChatID: u.ChatID}
}
