package progress

// Done: последняя строка успешного прогона; подписчики по ней отключаются.
const Done = "DONE"

// Sink принимает строки прогресса. Реализация не должна блокировать вызывающего.
type Sink interface {
	Accept(line string)
}

// SinkFunc адаптирует функцию к Sink.
type SinkFunc func(line string)

func (f SinkFunc) Accept(line string) { f(line) }

type discard struct{}

func (discard) Accept(string) {}

// Discard: синк по умолчанию.
var Discard Sink = discard{}

// OrDiscard подставляет Discard вместо nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
