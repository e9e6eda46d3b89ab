package rdx

import "strconv"

// Cache key builders, kept in one place so invalidation sites stay honest.

func KeyPaymentAmount() string {
	return "payment:amount:current"
}

func KeyHostelsByLevel(level int) string {
	return "hostels:level:" + strconv.Itoa(level)
}

func KeyResetToken(token string) string {
	return "reset:" + token
}

func KeyPaymentInitLock(studentID string) string {
	return "payinit_lock:" + studentID
}
