package models

// Category is a spending category. The set is closed and every category
// carries a fixed GST rate.
type Category string

const (
	CategoryFood       Category = "Food"
	CategoryTransport  Category = "Transport"
	CategoryShopping   Category = "Shopping"
	CategoryBills      Category = "Bills"
	CategoryInvestment Category = "Investment"
	CategoryOther      Category = "Other"
)

// categoryGSTRates is the only category→rate table in the codebase.
var categoryGSTRates = map[Category]float64{
	CategoryFood:       5,
	CategoryTransport:  12,
	CategoryShopping:   18,
	CategoryBills:      0,
	CategoryInvestment: 0,
	CategoryOther:      18,
}

// Categories returns every spending category in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryInvestment,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryGSTRates[c]
	return ok
}

// GSTRate returns the GST percentage charged on the category, 0 for unknown values.
func (c Category) GSTRate() float64 {
	return categoryGSTRates[c]
}

type PaymentMode string

const (
	PaymentUPI        PaymentMode = "UPI"
	PaymentCash       PaymentMode = "Cash"
	PaymentCard       PaymentMode = "Card"
	PaymentNetBanking PaymentMode = "Net Banking"
)

func (p PaymentMode) Valid() bool {
	switch p {
	case PaymentUPI, PaymentCash, PaymentCard, PaymentNetBanking:
		return true
	}
	return false
}

type IncomeSource string

const (
	SourceSalary     IncomeSource = "Salary"
	SourceFreelance  IncomeSource = "Freelance"
	SourceInvestment IncomeSource = "Investment"
	SourceBusiness   IncomeSource = "Business"
	SourceRental     IncomeSource = "Rental"
	SourceGift       IncomeSource = "Gift"
	SourceOther      IncomeSource = "Other"
)

func (s IncomeSource) Valid() bool {
	switch s {
	case SourceSalary, SourceFreelance, SourceInvestment, SourceBusiness, SourceRental, SourceGift, SourceOther:
		return true
	}
	return false
}

// Frequency is how often a recurring income repeats.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return true
	}
	return false
}

type GoalCategory string

const (
	GoalEmergencyFund GoalCategory = "Emergency Fund"
	GoalVacation      GoalCategory = "Vacation"
	GoalEducation     GoalCategory = "Education"
	GoalHome          GoalCategory = "Home"
	GoalVehicle       GoalCategory = "Vehicle"
	GoalRetirement    GoalCategory = "Retirement"
	GoalOther         GoalCategory = "Other"
)

func (g GoalCategory) Valid() bool {
	switch g {
	case GoalEmergencyFund, GoalVacation, GoalEducation, GoalHome, GoalVehicle, GoalRetirement, GoalOther:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationBudgetAlert     NotificationType = "budget_alert"
	NotificationGoalCompleted   NotificationType = "goal_completed"
	NotificationGoalReminder    NotificationType = "goal_reminder"
	NotificationSpendingInsight NotificationType = "spending_insight"
	NotificationSystem          NotificationType = "system"
)

// RelatedTo names the kind of record a notification points at.
type RelatedTo string

const (
	RelatedTransaction RelatedTo = "transaction"
	RelatedBudget      RelatedTo = "budget"
	RelatedGoal        RelatedTo = "goal"
	RelatedSystem      RelatedTo = "system"
	RelatedInsight     RelatedTo = "insight"
)
