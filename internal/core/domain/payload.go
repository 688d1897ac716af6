package domain

// Payload is the closed set of values that can travel with a navigation.
// Only the types in this file implement it.
type Payload interface {
	Kind() Kind
	sealed()
}

// Opaque carries an arbitrary record (a receipt, a report row, ...) that only
// a controller accepting any payload knows how to use.
type Opaque struct {
	Label string
	Value any
}

func (*Admin) Kind() Kind               { return KindAdmin }
func (*Student) Kind() Kind             { return KindStudent }
func (*MenuManager) Kind() Kind         { return KindMenuManager }
func (*OrderManager) Kind() Kind        { return KindOrderManager }
func (*StudentManager) Kind() Kind      { return KindStudentManager }
func (*PaymentManager) Kind() Kind      { return KindPaymentManager }
func (*ReportManager) Kind() Kind       { return KindReportManager }
func (*NotificationManager) Kind() Kind { return KindNotificationManager }
func (*Opaque) Kind() Kind              { return KindOpaque }

func (*Admin) sealed()               {}
func (*Student) sealed()             {}
func (*MenuManager) sealed()         {}
func (*OrderManager) sealed()        {}
func (*StudentManager) sealed()      {}
func (*PaymentManager) sealed()      {}
func (*ReportManager) sealed()       {}
func (*NotificationManager) sealed() {}
func (*Opaque) sealed()              {}

// NavigationRequest asks a portal to show Target, optionally carrying Payload.
// Reset evicts the portal's view cache first.
type NavigationRequest struct {
	Portal  Portal
	Target  string
	Payload Payload
	Reset   bool
}

// NoticeLabel marks an Opaque payload as a message for the login screen.
const NoticeLabel = "notice"
