package orderflow

// graph - исходящие рёбра каждого статуса внутри категории.
type graph map[Status][]Status

// Flow хранит таблицы переходов по категориям. После создания не изменяется,
// поэтому безопасен для конкурентного использования.
type Flow struct {
	graphs map[Category]graph
}

// Option настраивает Flow.
type Option func(*Flow)

// WithDirectPickup разрешает для CUSTOM_STITCHED переход processing -> ready_for_pickup
// в обход пошива. По умолчанию выключено.
func WithDirectPickup(enabled bool) Option {
	return func(f *Flow) {
		if !enabled {
			return
		}
		g := f.graphs[CategoryCustomStitched]
		g[StatusProcessing] = []Status{StatusStitching, StatusReadyForPickup}
	}
}

// New собирает Flow со стандартными графами и применяет опции.
func New(opts ...Option) *Flow {
	f := &Flow{graphs: defaultGraphs()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func defaultGraphs() map[Category]graph {
	return map[Category]graph{
		CategoryRental: {
			StatusPlaced:         {StatusProcessing},
			StatusProcessing:     {StatusReadyForPickup},
			StatusReadyForPickup: {StatusPickedUp},
			StatusPickedUp:       {StatusReturned},
			StatusReturned:       {StatusDepositRefunded},
		},
		CategoryReadyMadeGroup: {
			StatusPlaced:         {StatusProcessing},
			StatusProcessing:     {StatusReadyForPickup},
			StatusReadyForPickup: {StatusPickedUp},
		},
		CategoryCustomStitched: {
			StatusPlaced:         {StatusProcessing},
			StatusProcessing:     {StatusStitching},
			StatusStitching:      {StatusButtoning},
			StatusButtoning:      {StatusIroning},
			StatusIroning:        {StatusReadyForPickup},
			StatusReadyForPickup: {StatusPickedUp},
		},
		CategoryFabricOnly: {
			StatusPlaced:         {StatusProcessing},
			StatusProcessing:     {StatusReadyForPickup},
			StatusReadyForPickup: {StatusPickedUp},
		},
		CategoryUnknown: {},
	}
}

// NextStatuses возвращает допустимые следующие статусы. Для терминального
// или нераспознанного статуса, а также для неизвестной категории - пустой срез.
func (f *Flow) NextStatuses(category Category, current Status) []Status {
	g, ok := f.graphs[category]
	if !ok {
		return []Status{}
	}
	next := g[Normalize(string(current))]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition проверяет, есть ли ребро from -> to в графе категории.
func (f *Flow) CanTransition(category Category, from, to Status) bool {
	target := Normalize(string(to))
	for _, s := range f.NextStatuses(category, from) {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, что из статуса нет переходов в графе категории.
// Отменённый заказ терминален в любой категории.
func (f *Flow) IsTerminal(category Category, status Status) bool {
	if Normalize(string(status)) == StatusCancelled {
		return true
	}
	return len(f.NextStatuses(category, status)) == 0
}

// CanCancel сообщает, можно ли отменить заказ в текущем статусе.
// Отмена - внешняя операция и в NextStatuses не предлагается.
func (f *Flow) CanCancel(category Category, status Status) bool {
	st := Normalize(string(status))
	if !st.Valid() || st == StatusCancelled {
		return false
	}
	if category == CategoryUnknown {
		return st == StatusPlaced
	}
	return !f.IsTerminal(category, st)
}

var defaultFlow = New()

// Default возвращает Flow со стандартными таблицами.
func Default() *Flow {
	return defaultFlow
}

// NextStatuses - NextStatuses стандартного Flow.
func NextStatuses(category Category, current Status) []Status {
	return defaultFlow.NextStatuses(category, current)
}

// CanTransition - CanTransition стандартного Flow.
func CanTransition(category Category, from, to Status) bool {
	return defaultFlow.CanTransition(category, from, to)
}

// IsTerminal - IsTerminal стандартного Flow.
func IsTerminal(category Category, status Status) bool {
	return defaultFlow.IsTerminal(category, status)
}
