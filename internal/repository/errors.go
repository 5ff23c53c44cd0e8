package repository

import "errors"

// Сигнальные ошибки репозиториев: race-исходы, обнаруженные внутри транзакции.
// Сервисный слой переводит их в доменные ошибки.
var (
	// ErrWeekConfirmed попытка заменить слоты недели, которая уже подтверждена
	ErrWeekConfirmed = errors.New("availability for this week is already confirmed")
)
