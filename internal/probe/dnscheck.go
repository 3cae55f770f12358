package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNSClass buckets why a host did or did not resolve.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSServfail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

const defaultDNSLimit = 3 * time.Second

type DNSStatus struct {
	Domain        string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	Class         DNSClass
	ResolverError string
}

// DNSDiagnoser classifies the host behind a failing HTTP target. It is only
// used to enrich logs; it never feeds the state machine.
type DNSDiagnoser struct {
	Resolver *net.Resolver
	Timeout  time.Duration
}

func NewDNSDiagnoser() *DNSDiagnoser {
	return &DNSDiagnoser{Resolver: net.DefaultResolver, Timeout: defaultDNSLimit}
}

// DiagnoseURL classifies the hostname of a URL target.
func (d *DNSDiagnoser) DiagnoseURL(ctx context.Context, raw string) DNSStatus {
	return d.Check(ctx, HostOf(raw))
}

func (d *DNSDiagnoser) Check(ctx context.Context, domain string) DNSStatus {
	s := DNSStatus{Domain: strings.TrimSpace(domain)}
	if s.Domain == "" || strings.Contains(s.Domain, "://") {
		s.Class = DNSInvalidName
		return s
	}
	if ip := net.ParseIP(s.Domain); ip != nil {
		s.IPs = []net.IP{ip}
		s.Class = DNSResolves
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	ips, err := d.Resolver.LookupIP(ctx, "ip", s.Domain)
	switch {
	case err == nil && len(ips) > 0:
		s.IPs = ips
		s.Class = DNSResolves
	case err != nil:
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServfail
			}
		}
	}

	if cname, err := d.Resolver.LookupCNAME(ctx, s.Domain); err == nil && !strings.EqualFold(cname, s.Domain+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	if ns, err := d.Resolver.LookupNS(ctx, s.Domain); err == nil {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
	}

	if s.Class == DNSNXDomain && len(s.Nameservers) > 0 {
		s.Class = DNSNoARecord
	}
	if s.Class == "" {
		switch {
		case len(s.IPs) > 0:
			s.Class = DNSResolves
		case len(s.Nameservers) > 0:
			s.Class = DNSNoARecord
		case s.ResolverError != "":
			s.Class = DNSServfail
		default:
			s.Class = DNSNXDomain
		}
	}
	return s
}

// HostOf pulls the hostname from a URL string, falling back to the input.
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
