package dpa

// Coordinator response commands (request command | ResponseFlag)
const (
	CoordinatorAddrInfo          = 0x80
	CoordinatorDiscoveredDevices = 0x81
	CoordinatorBondedDevices     = 0x82
	CoordinatorBondNode          = 0x84
	CoordinatorDiscovery         = 0x87
)

// bitmapLength is the size of a node bitmap: one bit per address 0..255
const bitmapLength = 32

// CoordinatorAddrInfoResult is the response to Get addressing info
type CoordinatorAddrInfoResult struct {
	DevNr int // number of bonded nodes
	DID   int // discovery ID
}

func (r *CoordinatorAddrInfoResult) Kind() string { return "coordinator.addrInfo" }

// CoordinatorDevices is a bonded or discovered node list
type CoordinatorDevices struct {
	Discovered bool
	Addresses  []int
}

func (r *CoordinatorDevices) Kind() string {
	if r.Discovered {
		return "coordinator.discovered"
	}
	return "coordinator.bonded"
}

// CoordinatorBondNodeResult is the response to Bond node
type CoordinatorBondNodeResult struct {
	BondAddr int
	DevNr    int
}

func (r *CoordinatorBondNodeResult) Kind() string { return "coordinator.bondNode" }

// CoordinatorDiscoveryResult is the response to Discovery
type CoordinatorDiscoveryResult struct {
	DiscNr int // number of discovered nodes
}

func (r *CoordinatorDiscoveryResult) Kind() string { return "coordinator.discovery" }

// ParseCoordinator decodes coordinator peripheral responses
func ParseCoordinator(p *ResponsePacket) (Result, error) {
	if p.PNUM != PnumCoordinator {
		return nil, nil
	}

	switch p.PCMD {
	case CoordinatorAddrInfo:
		if err := needBytes(p, 2, "coordinator address info"); err != nil {
			return nil, err
		}
		return &CoordinatorAddrInfoResult{
			DevNr: int(p.PData[0]),
			DID:   int(p.PData[1]),
		}, nil

	case CoordinatorDiscoveredDevices, CoordinatorBondedDevices:
		if err := needBytes(p, bitmapLength, "coordinator node bitmap"); err != nil {
			return nil, err
		}
		return &CoordinatorDevices{
			Discovered: p.PCMD == CoordinatorDiscoveredDevices,
			Addresses:  bitmapAddresses(p.PData[:bitmapLength]),
		}, nil

	case CoordinatorBondNode:
		if err := needBytes(p, 2, "coordinator bond node"); err != nil {
			return nil, err
		}
		return &CoordinatorBondNodeResult{
			BondAddr: int(p.PData[0]),
			DevNr:    int(p.PData[1]),
		}, nil

	case CoordinatorDiscovery:
		if err := needBytes(p, 1, "coordinator discovery"); err != nil {
			return nil, err
		}
		return &CoordinatorDiscoveryResult{DiscNr: int(p.PData[0])}, nil
	}

	return nil, nil
}
