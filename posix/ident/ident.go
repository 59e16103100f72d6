package ident

import (
	"errors"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

// Buffer capacities, matching the original binding.
const (
	NameBufSize  = 64
	GecosBufSize = 256
	PathBufSize  = 1024
	ListBufSize  = 4096
)

// Host bridges user and group database lookups.
//
// Lookups go through the platform user database. The passwd field is not
// exposed by it (modern systems report "x" there anyway) and is always
// returned empty; group membership is read from /etc/group, best effort.
//
// All five operations are Lookup-shaped: a negative lookup leaves the
// native indicator undefined, so the bridge's configured not-found code is
// forced instead of whatever happened to be there.
type Host struct {
	groupFile string
}

func NewHost() *Host {
	return &Host{groupFile: "/etc/group"}
}

func (h *Host) Namespace() string {
	return "posix/ident"
}

var pwOuts = []bridge.Param{
	bridge.OutBuf("pw_name", NameBufSize),
	bridge.OutBuf("pw_passwd", NameBufSize),
	bridge.OutUint("pw_uid"),
	bridge.OutUint("pw_gid"),
	bridge.OutBuf("pw_gecos", GecosBufSize),
	bridge.OutBuf("pw_dir", PathBufSize),
	bridge.OutBuf("pw_shell", PathBufSize),
}

var grOuts = []bridge.Param{
	bridge.OutBuf("gr_name", NameBufSize),
	bridge.OutBuf("gr_passwd", NameBufSize),
	bridge.OutUint("gr_gid"),
	bridge.OutBuf("gr_mem", ListBufSize),
}

func (h *Host) Attach(b *bridge.Bridge) error {
	ops := []bridge.Op{
		{
			Name:   "getpwnam",
			Doc:    "user database entry by name",
			Shape:  outcome.ShapeLookup,
			Params: append([]bridge.Param{bridge.In("name")}, pwOuts...),
			Func: func(c *bridge.Call) outcome.Outcome {
				u, err := user.Lookup(c.String(0))
				return h.fillPasswd(c, u, err)
			},
		},
		{
			Name:   "getpwuid",
			Doc:    "user database entry by uid",
			Shape:  outcome.ShapeLookup,
			Params: append([]bridge.Param{bridge.UintIn("uid")}, pwOuts...),
			Func: func(c *bridge.Call) outcome.Outcome {
				u, err := user.LookupId(strconv.FormatUint(c.Uint(0), 10))
				return h.fillPasswd(c, u, err)
			},
		},
		{
			Name:   "getgrnam",
			Doc:    "group database entry by name",
			Shape:  outcome.ShapeLookup,
			Params: append([]bridge.Param{bridge.In("name")}, grOuts...),
			Func: func(c *bridge.Call) outcome.Outcome {
				g, err := user.LookupGroup(c.String(0))
				return h.fillGroup(c, g, err)
			},
		},
		{
			Name:   "getgrgid",
			Doc:    "group database entry by gid",
			Shape:  outcome.ShapeLookup,
			Params: append([]bridge.Param{bridge.UintIn("gid")}, grOuts...),
			Func: func(c *bridge.Call) outcome.Outcome {
				g, err := user.LookupGroupId(strconv.FormatUint(c.Uint(0), 10))
				return h.fillGroup(c, g, err)
			},
		},
		{
			Name:  "getgrouplist",
			Doc:   "names of the groups a user belongs to",
			Shape: outcome.ShapeIndicator,
			Params: []bridge.Param{
				bridge.In("name"),
				bridge.OutBuf("list", ListBufSize),
			},
			Func: h.getgrouplist,
		},
	}
	for _, op := range ops {
		if err := b.Register(op); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) fillPasswd(c *bridge.Call, u *user.User, err error) outcome.Outcome {
	if o := outcome.Lookup(err == nil, lookupErr(err), c.NotFoundCode()); !o.OK() {
		return o
	}
	uid, _ := strconv.ParseUint(u.Uid, 10, 64)
	gid, _ := strconv.ParseUint(u.Gid, 10, 64)
	*c.OutUint(3) = uid
	*c.OutUint(4) = gid
	fills := []struct {
		arg int
		val string
	}{
		{1, u.Username},
		{2, ""}, // pw_passwd: not exposed by the user database
		{5, u.Name},
		{6, u.HomeDir},
		{7, shellOf(u)},
	}
	for _, f := range fills {
		if setErr := c.Buffer(f.arg).SetString(f.val); setErr != nil {
			return outcome.FromError(setErr)
		}
	}
	return outcome.Success()
}

func (h *Host) fillGroup(c *bridge.Call, g *user.Group, err error) outcome.Outcome {
	if o := outcome.Lookup(err == nil, lookupErr(err), c.NotFoundCode()); !o.OK() {
		return o
	}
	gid, _ := strconv.ParseUint(g.Gid, 10, 64)
	*c.OutUint(3) = gid
	if setErr := c.Buffer(1).SetString(g.Name); setErr != nil {
		return outcome.FromError(setErr)
	}
	if setErr := c.Buffer(2).SetString(""); setErr != nil {
		return outcome.FromError(setErr)
	}
	list := c.Buffer(4)
	list.Reset()
	for _, member := range h.groupMembers(g.Name) {
		if setErr := list.AppendItem(member); setErr != nil {
			return outcome.FromError(setErr)
		}
	}
	return outcome.Success()
}

// getgrouplist mirrors the BSD-style original: a user absent from the
// database yields an empty list and Success, not a lookup failure.
func (h *Host) getgrouplist(c *bridge.Call) outcome.Outcome {
	list := c.Buffer(1)
	list.Reset()

	u, err := user.Lookup(c.String(0))
	if err != nil {
		if isUnknown(err) {
			return outcome.Success()
		}
		return outcome.Indicator(err)
	}
	gids, err := u.GroupIds()
	if err != nil {
		return outcome.Indicator(err)
	}
	for _, gid := range gids {
		g, err := user.LookupGroupId(gid)
		if err != nil {
			continue
		}
		if setErr := list.AppendItem(g.Name); setErr != nil {
			return outcome.FromError(setErr)
		}
	}
	return outcome.Success()
}

// groupMembers reads the supplementary member list for a group from the
// group file. Errors degrade to an empty list; membership via primary gid
// is not listed there, same as getgrnam(3).
func (h *Host) groupMembers(name string) []string {
	data, err := os.ReadFile(h.groupFile)
	if err != nil {
		return nil
	}
	for _, line := range strings.SplitAfter(string(data), "\n") {
		line = strings.TrimSuffix(line, "\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// name:passwd:gid:member1,member2
		fields := strings.SplitN(line, ":", 4)
		if len(fields) != 4 || fields[0] != name {
			continue
		}
		if fields[3] == "" {
			return nil
		}
		return strings.Split(fields[3], ",")
	}
	return nil
}

func shellOf(u *user.User) string {
	// The user database API does not expose the login shell; read it from
	// the passwd file when possible.
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range strings.SplitAfter(string(data), "\n") {
		line = strings.TrimSuffix(line, "\n")
		fields := strings.Split(line, ":")
		if len(fields) == 7 && fields[0] == u.Username {
			return fields[6]
		}
	}
	return ""
}

// lookupErr separates "not found" (no native indicator set; the Lookup
// shape forces the policy code) from genuine native failures.
func lookupErr(err error) error {
	if err == nil || isUnknown(err) {
		return nil
	}
	return err
}

func isUnknown(err error) bool {
	var (
		uu  user.UnknownUserError
		uui user.UnknownUserIdError
		ug  user.UnknownGroupError
		ugi user.UnknownGroupIdError
	)
	return errors.As(err, &uu) || errors.As(err, &uui) ||
		errors.As(err, &ug) || errors.As(err, &ugi)
}
