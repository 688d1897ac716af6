package domain

// Kind tags the members of the Payload union.
type Kind int

const (
	KindUnknown Kind = iota
	KindStudent
	KindAdmin
	KindMenuManager
	KindOrderManager
	KindStudentManager
	KindPaymentManager
	KindReportManager
	KindNotificationManager
	KindOpaque
)

// ManagerKinds is the fixed order in which manager variants are tried, both
// when dispatching payloads and when resolving logins.
var ManagerKinds = []Kind{
	KindMenuManager,
	KindOrderManager,
	KindStudentManager,
	KindPaymentManager,
	KindReportManager,
	KindNotificationManager,
}

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindStudent:             "student",
	KindAdmin:               "admin",
	KindMenuManager:         "menu_manager",
	KindOrderManager:        "order_manager",
	KindStudentManager:      "student_manager",
	KindPaymentManager:      "payment_manager",
	KindReportManager:       "report_manager",
	KindNotificationManager: "notification_manager",
	KindOpaque:              "opaque",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// IsManager reports whether k is one of the six service-manager variants.
func (k Kind) IsManager() bool {
	for _, m := range ManagerKinds {
		if m == k {
			return true
		}
	}
	return false
}

// homeViews maps each authenticated kind to the view it lands on after login.
var homeViews = map[Kind]string{
	KindAdmin:               "dashboard",
	KindStudent:             "home",
	KindMenuManager:         "menu-manager",
	KindOrderManager:        "order-manager",
	KindStudentManager:      "student-manager",
	KindPaymentManager:      "payment-manager",
	KindReportManager:       "report-manager",
	KindNotificationManager: "notification-manager",
}

// HomeView returns the landing view for k, or "" when k has none.
func HomeView(k Kind) string {
	return homeViews[k]
}
