package staff

import "errors"

var (
	// ErrStaffNotFound возвращается, когда профиль сотрудника не найден
	ErrStaffNotFound = errors.New("staff: staff profile not found")

	// ErrAccessDenied возвращается, когда сотрудник обращается к чужому профилю
	ErrAccessDenied = errors.New("staff: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("staff: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("staff: internal error")
)
