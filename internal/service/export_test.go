package service

// ActiveUsers は登録中のユーザー状態の数を返します
func ActiveUsers(svc PracticeService) int {
	s := svc.(*practiceService)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
