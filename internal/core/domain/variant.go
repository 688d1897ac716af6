package domain

// Variant describes one account collection: its payload tag, its backing
// table or collection name, and the record seeded on first start.
// Default is nil for collections that start empty.
type Variant[T any] struct {
	Kind       Kind
	Collection string
	Default    func() T
}

// DefaultPhoneNumber is stored on seeded accounts.
const DefaultPhoneNumber = "0000000000"

func seed(name, username string) Account {
	return Account{
		Name:        name,
		PhoneNumber: DefaultPhoneNumber,
		UserName:    username,
		Password:    username + "@123",
	}
}

var (
	Admins = Variant[Admin]{
		Kind:       KindAdmin,
		Collection: "Admin",
		Default:    func() Admin { return Admin{seed("Administrator", "admin")} },
	}
	Students = Variant[Student]{
		Kind:       KindStudent,
		Collection: "Student",
	}
	MenuManagers = Variant[MenuManager]{
		Kind:       KindMenuManager,
		Collection: "MenuManager",
		Default:    func() MenuManager { return MenuManager{seed("Menu Manager", "menumanager")} },
	}
	OrderManagers = Variant[OrderManager]{
		Kind:       KindOrderManager,
		Collection: "OrderManager",
		Default:    func() OrderManager { return OrderManager{seed("Order Manager", "ordermanager")} },
	}
	StudentManagers = Variant[StudentManager]{
		Kind:       KindStudentManager,
		Collection: "StudentManager",
		Default:    func() StudentManager { return StudentManager{seed("Student Manager", "studentmanager")} },
	}
	PaymentManagers = Variant[PaymentManager]{
		Kind:       KindPaymentManager,
		Collection: "PaymentManager",
		Default:    func() PaymentManager { return PaymentManager{seed("Payment Manager", "paymentmanager")} },
	}
	ReportManagers = Variant[ReportManager]{
		Kind:       KindReportManager,
		Collection: "ReportManager",
		Default:    func() ReportManager { return ReportManager{seed("Report Manager", "reportmanager")} },
	}
	NotificationManagers = Variant[NotificationManager]{
		Kind:       KindNotificationManager,
		Collection: "NotificationManager",
		Default: func() NotificationManager {
			return NotificationManager{seed("Notification Manager", "notificationmanager")}
		},
	}
)

// Collections lists every account collection name; backends create exactly these.
var Collections = []string{
	Admins.Collection,
	Students.Collection,
	MenuManagers.Collection,
	OrderManagers.Collection,
	StudentManagers.Collection,
	PaymentManagers.Collection,
	ReportManagers.Collection,
	NotificationManagers.Collection,
}

// IsCollection reports whether name is one of Collections.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
