package domain

import "cloud.google.com/go/civil"

// SampleTransactions returns the demo data shown when a session has nothing
// loaded. A new slice is returned on every call.
func SampleTransactions() []Transaction {
	d := func(day int) civil.Date {
		return civil.Date{Year: 2024, Month: 7, Day: day}
	}
	return []Transaction{
		NewTransaction(1, d(15), "Starbucks Coffee", "Food & Drink", -5.75),
		NewTransaction(2, d(16), "Paycheck Deposit", "Income", 2500.00),
		NewTransaction(3, d(17), "Netflix Subscription", "Entertainment", -15.49),
		NewTransaction(4, d(18), "Grocery Shopping", "Groceries", -85.30),
		NewTransaction(5, d(19), "Gasoline", "Transport", -45.00),
		NewTransaction(6, d(22), "Client Payment", "Income", 750.00),
	}
}
