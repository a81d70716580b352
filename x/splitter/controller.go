package splitter

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/x/cash"
	"github.com/iov-one/splitweave/x/events"
	"github.com/iov-one/splitweave/x/lifetime"
)

// Controller implements the operations of splitter instances on top of the
// asset ledger.
type Controller struct {
	bucket Bucket
	cash   cash.Controller
}

// NewController returns a controller moving funds through given ledger.
func NewController(bucket Bucket, ledger cash.Controller) Controller {
	return Controller{
		bucket: bucket,
		cash:   ledger,
	}
}

// Init configures the instance. It can succeed only once per instance.
func (c Controller) Init(ctx weave.Context, db weave.KVStore, instance, asset weave.Address, recipients []weave.Address, weights []uint32) error {
	if err := instance.Validate(); err != nil {
		return errors.Wrap(err, "instance")
	}
	s, err := c.bucket.GetSplitter(db, instance)
	if err != nil {
		return errors.Wrap(err, "cannot load splitter")
	}
	if s == nil {
		s = &Splitter{}
	}
	if err := s.initialize(asset, recipients, weights); err != nil {
		return err
	}

	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if int64(len(recipients)) > conf.MaxRecipients {
		return errors.Wrapf(errors.ErrInvalidInput, "more than %d recipients", conf.MaxRecipients)
	}
	if err := c.bucket.Put(db, instance, s); err != nil {
		return errors.Wrap(err, "cannot save splitter")
	}
	return c.extend(ctx, db, instance, conf)
}

// Distribute pays every recipient its share of the instance balance and
// returns the payouts in recipient order. Recipients with a zero share are
// listed but no transfer is made to them. The rounding remainder stays with
// the instance.
func (c Controller) Distribute(ctx weave.Context, db weave.KVStore, instance weave.Address) (_ *Distribution, err error) {
	s, err := c.load(ctx, db, instance)
	if err != nil {
		return nil, err
	}
	if err := s.lock(); err != nil {
		return nil, err
	}
	if err := c.bucket.Put(db, instance, s); err != nil {
		return nil, errors.Wrap(err, "cannot lock splitter")
	}
	defer func() {
		if err == nil {
			return
		}
		// Usually discarded with the rest of the writes by the savepoint,
		// but the lock must not stay set if the host keeps them.
		s.unlock()
		if uerr := c.bucket.Put(db, instance, s); uerr != nil {
			weave.GetLogger(ctx).Error("cannot release splitter lock", "instance", instance, "err", uerr)
		}
	}()

	balance, err := c.cash.Balance(db, s.Asset, instance)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read balance")
	}
	amounts, err := Shares(balance, s.Weights)
	if err != nil {
		return nil, err
	}

	d := &Distribution{
		Balance:  balance,
		Retained: balance,
		Payouts:  make([]*Payout, len(amounts)),
	}
	for i, amount := range amounts {
		d.Payouts[i] = &Payout{Recipient: s.Recipients[i], Amount: amount}
		if amount == 0 {
			continue
		}
		if err := c.cash.Transfer(ctx, db, s.Asset, instance, s.Recipients[i], amount); err != nil {
			return nil, errors.Wrapf(err, "transfer to recipient %d", i)
		}
		d.Retained -= amount
	}

	// Receiver hooks may have written the instance, reload before
	// releasing the lock.
	current, err := c.bucket.GetSplitter(db, instance)
	if err != nil {
		return nil, errors.Wrap(err, "cannot reload splitter")
	}
	if current == nil {
		return nil, errors.Wrap(ErrNotInitialized, "splitter removed during distribution")
	}
	current.unlock()
	if err := c.bucket.Put(db, instance, current); err != nil {
		return nil, errors.Wrap(err, "cannot unlock splitter")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := c.extend(ctx, db, instance, conf); err != nil {
		return nil, err
	}

	payload, err := proto.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize distribution")
	}
	if _, err := events.Publish(ctx, db, instance, "distributed", payload); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Debug("distributed",
		"instance", instance, "balance", d.Balance, "retained", d.Retained)
	return d, nil
}

// Config returns the configuration of the instance. Reading it keeps the
// instance alive.
func (c Controller) Config(ctx weave.Context, db weave.KVStore, instance weave.Address) (*Config, error) {
	s, err := c.load(ctx, db, instance)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := c.extend(ctx, db, instance, conf); err != nil {
		return nil, err
	}
	return s.Config(), nil
}

// Balance returns the amount of the configured asset held by the instance.
func (c Controller) Balance(ctx weave.Context, db weave.ReadOnlyKVStore, instance weave.Address) (int64, error) {
	s, err := c.load(ctx, db, instance)
	if err != nil {
		return 0, err
	}
	return c.cash.Balance(db, s.Asset, instance)
}

func (c Controller) load(ctx weave.Context, db weave.ReadOnlyKVStore, instance weave.Address) (*Splitter, error) {
	s, err := c.bucket.GetSplitter(db, instance)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load splitter")
	}
	if s == nil {
		return nil, errors.Wrapf(ErrNotInitialized, "instance %s", instance)
	}
	if err := lifetime.Check(ctx, db, instance); err != nil {
		return nil, err
	}
	return s, nil
}

func (c Controller) extend(ctx weave.Context, db weave.KVStore, instance weave.Address, conf *Configuration) error {
	if err := lifetime.Extend(ctx, db, instance, conf.TTLThreshold, conf.TTLExtendTo); err != nil {
		return errors.Wrap(err, "cannot extend lifetime")
	}
	return nil
}
