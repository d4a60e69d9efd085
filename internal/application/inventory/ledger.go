package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const tracerName = "github.com/jhoicas/inventario-ledger/internal/application/inventory"

// Config política de reintentos y timeouts del libro.
type Config struct {
	MaxAttempts  int              // intentos totales; por defecto 3
	StoreTimeout time.Duration    // límite por llamada al almacén; por defecto 5s
	RetryBackoff time.Duration    // espera lineal entre intentos; 0 = sin espera
	Now          func() time.Time // reloj; por defecto time.Now
	NewReference func() string    // referencia para traslados sin una; por defecto UUID
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 3
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 5 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewReference == nil {
		c.NewReference = uuid.NewString
	}
	return c
}

// StockLedger único componente que cambia cantidades de inventario. Cada cambio de existencia
// se confirma junto con su TransactionRecord en un solo commit atómico.
// Lectura-validación-escritura con concurrencia optimista: el commit se condiciona a la versión
// leída y, ante conflicto, la operación completa se repite releyendo el estado.
type StockLedger struct {
	store      repository.InventoryStore
	validators repository.ExistenceValidator
	log        *logger.Logger
	tracer     trace.Tracer
	cfg        Config
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(
	store repository.InventoryStore,
	validators repository.ExistenceValidator,
	log *logger.Logger,
	cfg Config,
) *StockLedger {
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedger{
		store:      store,
		validators: validators,
		log:        log.Named("stock_ledger"),
		tracer:     otel.Tracer(tracerName),
		cfg:        cfg.withDefaults(),
	}
}

// planFunc lee el estado actual y devuelve los cambios a confirmar. Se invoca una vez por intento.
type planFunc func(ctx context.Context) ([]repository.Write, error)

// execute corre plan + commit con reintentos acotados. Las fallas de negocio nunca se reintentan;
// ErrConcurrencyConflict (commit) y ErrStoreUnavailable (lectura) sí. Un ErrStoreUnavailable del
// commit se devuelve sin reintentar: el resultado puede ser desconocido.
func (l *StockLedger) execute(ctx context.Context, op string, plan planFunc) error {
	var lastErr error
	for attempt := 1; attempt <= l.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := l.backoff(ctx, attempt); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		writes, err := plan(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				lastErr = err
				l.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("almacén no disponible al leer, reintentando")
				continue
			}
			return err
		}

		// Cancelación honrada solo antes de emitir el commit.
		if err := ctx.Err(); err != nil {
			return err
		}
		err = l.commit(ctx, writes)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			lastErr = err
			l.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
			continue
		}
		return err
	}
	if errors.Is(lastErr, domain.ErrConcurrencyConflict) {
		return fmt.Errorf("%w: %d intentos agotados", domain.ErrConcurrencyConflict, l.cfg.MaxAttempts)
	}
	return lastErr
}

func (l *StockLedger) backoff(ctx context.Context, attempt int) error {
	if l.cfg.RetryBackoff <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(attempt-1) * l.cfg.RetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// storeErr traduce errores de una llamada acotada por timeout. Si el contexto del llamador se
// canceló se devuelve su error; si venció solo el timeout interno es ErrStoreUnavailable.
func storeErr(ctx context.Context, err error, what string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// get lee un registro (nil si no existe) con el timeout del almacén.
func (l *StockLedger) get(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	sctx, cancel := context.WithTimeout(ctx, l.cfg.StoreTimeout)
	defer cancel()
	rec, err := l.store.Get(sctx, key)
	if err != nil {
		return nil, storeErr(ctx, err, "leer inventario")
	}
	return rec, nil
}

// getOrCreate lee el registro o construye el registro implícito en cero (versión 0).
func (l *StockLedger) getOrCreate(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	rec, err := l.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return entity.NewInventoryRecord(key, l.cfg.Now()), nil
	}
	return rec, nil
}

// commit emite el commit desligado de la cancelación del llamador; solo aplica el timeout.
func (l *StockLedger) commit(ctx context.Context, writes []repository.Write) error {
	base := context.WithoutCancel(ctx)
	sctx, cancel := context.WithTimeout(base, l.cfg.StoreTimeout)
	defer cancel()
	if err := l.store.Commit(sctx, writes); err != nil {
		return storeErr(base, err, "confirmar cambios")
	}
	return nil
}

type existenceCheck struct {
	entity string
	id     string
	exists func(context.Context, string) (bool, error)
}

// requireExists consulta los validadores de datos maestros antes de mutar. Un ErrStoreUnavailable
// se reintenta con la misma política que las lecturas del plan.
func (l *StockLedger) requireExists(ctx context.Context, productID, userID string, warehouseIDs ...string) error {
	var err error
	for attempt := 1; attempt <= l.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if berr := l.backoff(ctx, attempt); berr != nil {
				return berr
			}
		}
		err = l.checkExists(ctx, productID, userID, warehouseIDs)
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		l.log.Warn().Err(err).Int("attempt", attempt).Msg("almacén no disponible al validar, reintentando")
	}
	return err
}

func (l *StockLedger) checkExists(ctx context.Context, productID, userID string, warehouseIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	checks := []existenceCheck{
		{domain.EntityProduct, productID, l.validators.ProductExists},
		{domain.EntityUser, userID, l.validators.UserExists},
	}
	for _, w := range warehouseIDs {
		checks = append(checks, existenceCheck{domain.EntityWarehouse, w, l.validators.WarehouseExists})
	}
	for _, c := range checks {
		sctx, cancel := context.WithTimeout(ctx, l.cfg.StoreTimeout)
		ok, err := c.exists(sctx, c.id)
		cancel()
		if err != nil {
			return storeErr(ctx, err, "validar "+c.entity)
		}
		if !ok {
			return &domain.PreconditionError{Entity: c.entity, ID: c.id}
		}
	}
	return nil
}

// startSpan abre la traza de una operación con los atributos de la llave.
func (l *StockLedger) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return l.tracer.Start(ctx, "StockLedger."+op, trace.WithAttributes(attrs...))
}

// finish registra el resultado en la traza y en el log.
func (l *StockLedger) finish(span trace.Span, op string, err error) {
	defer span.End()
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	log := l.log.WithSpan(span.SpanContext())
	switch {
	case domain.IsBusinessRule(err):
		log.Debug().Err(err).Str("op", op).Msg("operación rechazada")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug().Err(err).Str("op", op).Msg("operación cancelada")
	default:
		log.Error().Err(err).Str("op", op).Msg("operación fallida")
	}
}
