package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// candidate свободный сотрудник с его дневной нагрузкой
type candidate struct {
	staffID int64
	load    int
}

// PickStaff выбирает сотрудника для бронирования
//
//  1. подходящие сотрудники; пусто - никого
//  2. free = eligible - busy для точного интервала
//  3. дневная нагрузка свободных (по политике loadScope)
//  4. сортировка: нагрузка по возрастанию, затем staff id по возрастанию
//  5. повторная узкая проверка пересечения для каждого кандидата, первый свободный выигрывает
//
// Повторная проверка только сужает окно гонки. Атомарность обеспечивает
// транзакция вызывающего кода и EXCLUDE ограничение в БД.
func (s *Service) PickStaff(
	ctx context.Context,
	businessUserID int64,
	serviceID int64,
	date time.Time,
	start types.TimeString,
	durationMinutes int,
) (int64, bool, error) {
	eligible, err := s.EligibleStaff(ctx, businessUserID, serviceID)
	if err != nil {
		return 0, false, err
	}
	if len(eligible) == 0 {
		s.logger.Warn("PickStaff: no eligible staff for service id=%d business=%d", serviceID, businessUserID)
		return 0, false, nil
	}

	cfg, err := s.slotConfig(ctx, businessUserID)
	if err != nil {
		return 0, false, err
	}

	requested := domain.NewInterval(start, durationMinutes)

	busy, err := s.BusyStaff(ctx, date, requested, eligible, cfg.StepMinutes)
	if err != nil {
		return 0, false, err
	}

	free := make([]int64, 0, len(eligible))
	for _, id := range eligible {
		if _, isBusy := busy[id]; !isBusy {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		s.logger.Info("PickStaff: all %d eligible staff busy at %s %s", len(eligible), date.Format(domain.DateFormat), start)
		return 0, false, nil
	}

	load, err := s.dailyLoad(ctx, date, free)
	if err != nil {
		return 0, false, err
	}

	// Внутри SERIALIZABLE транзакции перепроверка видит тот же снимок, что и шаг 2:
	// конкурентную вставку ловят EXCLUDE ограничение и ошибка сериализации при коммите
	for _, c := range rankCandidates(free, load) {
		overlapping, err := s.bookingRepo.HasOverlappingBooking(ctx, c.staffID, date, requested, cfg.StepMinutes)
		if err != nil {
			return 0, false, fmt.Errorf("%w: recheck staff id=%d: %w", ErrInternal, c.staffID, err)
		}
		if overlapping {
			s.logger.Info("PickStaff: staff id=%d became busy during recheck", c.staffID)
			continue
		}

		s.logger.Info("PickStaff: assigned staff id=%d (load=%d) for service id=%d at %s %s",
			c.staffID, c.load, serviceID, date.Format(domain.DateFormat), start)
		return c.staffID, true, nil
	}

	return 0, false, nil
}

// dailyLoad считает нагрузку кандидатов; при LoadScopeNone нагрузка не учитывается
func (s *Service) dailyLoad(ctx context.Context, date time.Time, staffIDs []int64) (map[int64]int, error) {
	if s.loadScope == domain.LoadScopeNone {
		return map[int64]int{}, nil
	}

	load, err := s.bookingRepo.CountDailyLoad(ctx, date, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: count daily load: %w", ErrInternal, err)
	}
	return load, nil
}

// rankCandidates упорядочивает по нагрузке, затем по staff id
func rankCandidates(staffIDs []int64, load map[int64]int) []candidate {
	ranked := make([]candidate, 0, len(staffIDs))
	for _, id := range staffIDs {
		ranked = append(ranked, candidate{staffID: id, load: load[id]})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].load != ranked[j].load {
			return ranked[i].load < ranked[j].load
		}
		return ranked[i].staffID < ranked[j].staffID
	})

	return ranked
}
