package service

import "github.com/m04kA/SMC-StaffBookingService/pkg/dbmetrics"

// DBExecutor исполнитель запросов (*dbmetrics.DB или транзакция)
type DBExecutor = dbmetrics.DBExecutor
