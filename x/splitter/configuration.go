package splitter

import (
	"math"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/gconf"
)

const packageName = "splitter"

// Configuration of the splitter extension. Lifetimes are counted in blocks.
type Configuration struct {
	TTLThreshold  int64 `protobuf:"varint,1,opt,name=ttl_threshold,proto3" json:"ttl_threshold"`
	TTLExtendTo   int64 `protobuf:"varint,2,opt,name=ttl_extend_to,proto3" json:"ttl_extend_to"`
	MaxRecipients int64 `protobuf:"varint,3,opt,name=max_recipients,proto3" json:"max_recipients"`
}

func (c *Configuration) Reset()         { *c = Configuration{} }
func (c *Configuration) String() string { return proto.CompactTextString(c) }
func (*Configuration) ProtoMessage()    {}

// DefaultConfiguration is used when the genesis does not configure the
// extension.
func DefaultConfiguration() Configuration {
	return Configuration{
		TTLThreshold:  5000,
		TTLExtendTo:   5000,
		MaxRecipients: 200,
	}
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if c.TTLThreshold < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative ttl threshold")
	}
	if c.TTLExtendTo <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "ttl extend to must be positive")
	}
	if c.MaxRecipients <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "max recipients must be positive")
	}
	if c.MaxRecipients > math.MaxInt32 {
		return errors.Wrapf(errors.ErrOverflow, "max recipients greater than %d", math.MaxInt32)
	}
	return nil
}

func loadConf(db weave.ReadOnlyKVStore) (*Configuration, error) {
	conf := DefaultConfiguration()
	if err := gconf.LoadOrDefault(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "stored configuration")
	}
	return &conf, nil
}
