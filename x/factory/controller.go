package factory

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
	"github.com/iov-one/splitweave/x/deploy"
	"github.com/iov-one/splitweave/x/events"
	"github.com/iov-one/splitweave/x/lifetime"
	"github.com/iov-one/splitweave/x/splitter"
)

// Controller creates splitter instances.
type Controller struct {
	bucket    Bucket
	splitters splitter.Controller
}

func NewController(bucket Bucket, splitters splitter.Controller) Controller {
	return Controller{
		bucket:    bucket,
		splitters: splitters,
	}
}

// Init sets the template used by the factory. Replacing the template of an
// initialized factory is allowed only when the configuration permits it.
func (c Controller) Init(ctx weave.Context, db weave.KVStore, factory weave.Address, templateID []byte) error {
	if err := factory.Validate(); err != nil {
		return errors.Wrap(err, "factory")
	}
	if ok, err := deploy.NewTemplateBucket().Has(db, templateID); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(errors.ErrNotFound, "template %X", templateID)
	}

	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	current, err := c.bucket.GetConfig(db, factory)
	if err != nil {
		return errors.Wrap(err, "cannot load factory")
	}
	if current != nil && !conf.AllowReinit {
		return errors.Wrapf(ErrAlreadyInitialized, "factory %s", factory)
	}

	fc := &FactoryConfig{Template: append([]byte(nil), templateID...)}
	if err := c.bucket.Save(db, orm.NewSimpleObj(factory, fc)); err != nil {
		return errors.Wrap(err, "cannot save factory")
	}
	return c.extend(ctx, db, factory, conf)
}

// Template returns the template id the factory deploys.
func (c Controller) Template(ctx weave.Context, db weave.ReadOnlyKVStore, factory weave.Address) ([]byte, error) {
	fc, err := c.load(ctx, db, factory)
	if err != nil {
		return nil, err
	}
	return fc.Template, nil
}

// Create deploys a new instance of the factory template and initializes its
// splitter. Any failure leaves a partially created instance behind in db,
// the caller must discard the writes.
func (c Controller) Create(
	ctx weave.Context,
	db weave.KVStore,
	factory, asset weave.Address,
	recipients []weave.Address,
	weights []uint32,
	salt []byte,
) (weave.Address, error) {
	fc, err := c.load(ctx, db, factory)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	policy, err := PolicyByName(conf.SaltPolicy)
	if err != nil {
		return nil, err
	}
	salt, err = policy.Salt(ctx, asset, salt)
	if err != nil {
		return nil, errors.Wrap(err, "salt")
	}

	instance, err := deploy.Deploy(ctx, db, factory, fc.Template, salt)
	if err != nil {
		return nil, err
	}
	if err := c.splitters.Init(ctx, db, instance, asset, recipients, weights); err != nil {
		return nil, errors.Wrap(err, "cannot initialize splitter")
	}
	if err := c.extend(ctx, db, factory, conf); err != nil {
		return nil, err
	}
	if _, err := events.Publish(ctx, db, factory, "created", instance); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Debug("splitter created",
		"factory", factory, "instance", instance, "asset", asset)
	return instance, nil
}

func (c Controller) load(ctx weave.Context, db weave.ReadOnlyKVStore, factory weave.Address) (*FactoryConfig, error) {
	fc, err := c.bucket.GetConfig(db, factory)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load factory")
	}
	if fc == nil {
		return nil, errors.Wrapf(ErrFactoryNotInitialized, "factory %s", factory)
	}
	if err := lifetime.Check(ctx, db, factory); err != nil {
		return nil, err
	}
	return fc, nil
}

func (c Controller) extend(ctx weave.Context, db weave.KVStore, factory weave.Address, conf *Configuration) error {
	if err := lifetime.Extend(ctx, db, factory, conf.TTLThreshold, conf.TTLExtendTo); err != nil {
		return errors.Wrap(err, "cannot extend lifetime")
	}
	return nil
}
