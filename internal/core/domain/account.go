package domain

// Account is the row shape shared by every account collection.
// Column names are fixed: Id, Name, Phone_Number, UserName, Password.
type Account struct {
	ID          int64  `json:"id" db:"Id"`
	Name        string `json:"name" db:"Name" validate:"max=100"`
	PhoneNumber string `json:"phone_number" db:"Phone_Number" validate:"max=20"`
	UserName    string `json:"username" db:"UserName" validate:"required,max=64"`
	Password    string `json:"-" db:"Password" validate:"required,max=128"`
}

// Base exposes the embedded row so generic code can reach it through any record type.
func (a *Account) Base() *Account { return a }

// Admin is a cafeteria administrator.
type Admin struct{ Account }

// Student is a self-service customer of the cafeteria.
type Student struct{ Account }

// MenuManager maintains menu items.
type MenuManager struct{ Account }

// OrderManager processes orders.
type OrderManager struct{ Account }

// StudentManager maintains student accounts.
type StudentManager struct{ Account }

// PaymentManager reconciles payments.
type PaymentManager struct{ Account }

// ReportManager produces sales and redemption reports.
type ReportManager struct{ Account }

// NotificationManager publishes notifications to students.
type NotificationManager struct{ Account }

// AccountRecord constrains the generic account store to pointer record types
// that embed Account and belong to the Payload union.
type AccountRecord[T any] interface {
	*T
	Payload
	Base() *Account
}
