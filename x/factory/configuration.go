package factory

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/gconf"
)

const packageName = "factory"

// Configuration of the factory extension. Lifetimes are counted in blocks.
type Configuration struct {
	// SaltPolicy is either "content" or "context".
	SaltPolicy string `protobuf:"bytes,1,opt,name=salt_policy,proto3" json:"salt_policy"`
	// AllowReinit permits replacing the template of an initialized factory.
	AllowReinit  bool  `protobuf:"varint,2,opt,name=allow_reinit,proto3" json:"allow_reinit"`
	TTLThreshold int64 `protobuf:"varint,3,opt,name=ttl_threshold,proto3" json:"ttl_threshold"`
	TTLExtendTo  int64 `protobuf:"varint,4,opt,name=ttl_extend_to,proto3" json:"ttl_extend_to"`
}

func (c *Configuration) Reset()         { *c = Configuration{} }
func (c *Configuration) String() string { return proto.CompactTextString(c) }
func (*Configuration) ProtoMessage()    {}

func DefaultConfiguration() Configuration {
	return Configuration{
		SaltPolicy:   contextPolicy,
		TTLThreshold: 5000,
		TTLExtendTo:  5000,
	}
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if _, err := PolicyByName(c.SaltPolicy); err != nil {
		return err
	}
	if c.TTLThreshold < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative ttl threshold")
	}
	if c.TTLExtendTo <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "ttl extend to must be positive")
	}
	return nil
}

func loadConf(db weave.ReadOnlyKVStore) (*Configuration, error) {
	conf := DefaultConfiguration()
	if err := gconf.LoadOrDefault(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
