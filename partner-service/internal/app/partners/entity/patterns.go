package entity

import "regexp"

// Форматы полей партнёра, общие для репозитория и валидации формы
var (
	TaxIDPattern = regexp.MustCompile(`^\d{10}$`)
	EmailPattern = regexp.MustCompile(`^[\w.\-]+@[\w.\-]+\.[A-Za-z]{2,}$`)
	PhonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
)
